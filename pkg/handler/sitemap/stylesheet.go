/*
 * @Description: 站点地图 XSL 样式表，浏览器访问时渲染为可读表格
 * @Author: 安知鱼
 * @Date: 2025-12-13 14:05:51
 * @LastEditTime: 2025-12-13 14:05:51
 * @LastEditors: 安知鱼
 */
package sitemap

const sitemapStylesheet = `<?xml version="1.0" encoding="UTF-8"?>
<xsl:stylesheet version="1.0"
  xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
  xmlns:sm="http://www.sitemaps.org/schemas/sitemap/0.9">
  <xsl:output method="html" encoding="UTF-8" indent="yes"/>
  <xsl:template match="/">
    <html>
      <head>
        <title>XML Sitemap</title>
        <style>
          body { font-family: sans-serif; font-size: 14px; color: #333; }
          table { border-collapse: collapse; width: 100%; }
          th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #ddd; }
          th { background: #f5f5f5; }
        </style>
      </head>
      <body>
        <h1>XML Sitemap</h1>
        <xsl:if test="sm:sitemapindex">
          <table>
            <tr><th>Sitemap</th><th>Last Modified</th></tr>
            <xsl:for-each select="sm:sitemapindex/sm:sitemap">
              <tr>
                <td><a href="{sm:loc}"><xsl:value-of select="sm:loc"/></a></td>
                <td><xsl:value-of select="sm:lastmod"/></td>
              </tr>
            </xsl:for-each>
          </table>
        </xsl:if>
        <xsl:if test="sm:urlset">
          <table>
            <tr><th>URL</th><th>Last Modified</th><th>Priority</th></tr>
            <xsl:for-each select="sm:urlset/sm:url">
              <tr>
                <td><a href="{sm:loc}"><xsl:value-of select="sm:loc"/></a></td>
                <td><xsl:value-of select="sm:lastmod"/></td>
                <td><xsl:value-of select="sm:priority"/></td>
              </tr>
            </xsl:for-each>
          </table>
        </xsl:if>
      </body>
    </html>
  </xsl:template>
</xsl:stylesheet>
`
